package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		o.printRegisterResult(v)
	case StartSessionResult:
		o.printStartSessionResult(v)
	case PingResult:
		o.printPingResult(v)
	case BadgeList:
		o.printBadgeList(v)
	case Progress:
		o.printProgress(v)
	case HighestAward:
		o.printHighestAward(v)
	case RevalidateResult:
		o.printRevalidateResult(v)
	case UnlockRecordResult:
		o.printUnlockRecordResult(v)
	case Game:
		o.printGame(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisterResult response type (matches API)
type RegisterResult struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// UnlockEntry response type
type UnlockEntry struct {
	ID   string `json:"id"`
	When int64  `json:"when"`
}

// StartSessionResult response type
type StartSessionResult struct {
	SessionID       string        `json:"session_id"`
	Outcome         string        `json:"outcome"`
	HardcoreUnlocks []UnlockEntry `json:"hardcore_unlocks"`
	Unlocks         []UnlockEntry `json:"unlocks"`
	ServerNow       int64         `json:"server_now"`
}

// PingResult response type
type PingResult struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
	Duration  int    `json:"duration"`
	ServerNow int64  `json:"server_now"`
}

// BadgeEntry response type
type BadgeEntry struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	SubjectID    string    `json:"subject_id"`
	Variant      int       `json:"variant"`
	AwardedAt    time.Time `json:"awarded_at"`
	DisplayOrder int       `json:"display_order"`
}

// BadgeList response type
type BadgeList struct {
	Badges []BadgeEntry `json:"badges"`
}

// Progress response type
type Progress struct {
	UserID                       string     `json:"user_id"`
	GameID                       string     `json:"game_id"`
	AchievementsTotal            int        `json:"achievements_total"`
	AchievementsUnlocked         int        `json:"achievements_unlocked"`
	AchievementsUnlockedHardcore int        `json:"achievements_unlocked_hardcore"`
	PointsHardcore               int        `json:"points_hardcore"`
	BeatenAt                     *time.Time `json:"beaten_at"`
	BeatenHardcoreAt             *time.Time `json:"beaten_hardcore_at"`
	CompletedAt                  *time.Time `json:"completed_at"`
	CompletedHardcoreAt          *time.Time `json:"completed_hardcore_at"`
}

// HighestAward response type
type HighestAward struct {
	Kind  string     `json:"kind"`
	Badge BadgeEntry `json:"badge"`
}

// SignalEntry response type
type SignalEntry struct {
	Type      string `json:"type"`
	SubjectID string `json:"subject_id"`
	BadgeType string `json:"badge_type,omitempty"`
	Variant   int    `json:"variant"`
	Hardcore  bool   `json:"hardcore"`
}

// RevalidateResult response type
type RevalidateResult struct {
	Mutations int           `json:"mutations"`
	Signals   []SignalEntry `json:"signals"`
}

// UnlockRecordResult response type
type UnlockRecordResult struct {
	Progress     Progress         `json:"progress"`
	Revalidation RevalidateResult `json:"revalidation"`
}

// Game response type
type Game struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Kind                  string `json:"kind"`
	AchievementsPublished int    `json:"achievements_published"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("User: %s (%s)\n", r.Name, r.UserID)
	fmt.Printf("API Key: %s\n", r.APIKey)
	fmt.Println("Store this key now; it cannot be retrieved again.")
}

func (o *Output) printStartSessionResult(s StartSessionResult) {
	fmt.Printf("Session: %s (%s)\n", s.SessionID, s.Outcome)
	fmt.Printf("Hardcore unlocks (%d):\n", len(s.HardcoreUnlocks))
	for _, u := range s.HardcoreUnlocks {
		fmt.Printf("  - %s\n", u.ID)
	}
	fmt.Printf("Softcore unlocks (%d):\n", len(s.Unlocks))
	for _, u := range s.Unlocks {
		fmt.Printf("  - %s\n", u.ID)
	}
}

func (o *Output) printPingResult(p PingResult) {
	fmt.Printf("Session: %s (%s)\n", p.SessionID, p.Outcome)
	fmt.Printf("Duration: %d minutes\n", p.Duration)
}

func (o *Output) printBadgeList(l BadgeList) {
	fmt.Printf("Badges (%d):\n", len(l.Badges))
	for _, b := range l.Badges {
		fmt.Printf("  - %s/%s variant %d, awarded %s\n", b.Type, b.SubjectID, b.Variant, b.AwardedAt.Format(time.RFC3339))
	}
}

func (o *Output) printProgress(p Progress) {
	fmt.Printf("Progress: %s on %s\n", p.UserID, p.GameID)
	fmt.Printf("Unlocked: %d/%d (%d hardcore)\n", p.AchievementsUnlocked, p.AchievementsTotal, p.AchievementsUnlockedHardcore)
	fmt.Printf("Hardcore points: %d\n", p.PointsHardcore)
	printTimestamp("Beaten", p.BeatenAt)
	printTimestamp("Beaten (hardcore)", p.BeatenHardcoreAt)
	printTimestamp("Completed", p.CompletedAt)
	printTimestamp("Completed (hardcore)", p.CompletedHardcoreAt)
}

func (o *Output) printHighestAward(a HighestAward) {
	fmt.Printf("Highest award: %s\n", a.Kind)
	fmt.Printf("Awarded: %s\n", a.Badge.AwardedAt.Format(time.RFC3339))
}

func (o *Output) printRevalidateResult(r RevalidateResult) {
	fmt.Printf("Mutations applied: %d\n", r.Mutations)
	if len(r.Signals) > 0 {
		fmt.Println("Signals:")
		for _, s := range r.Signals {
			fmt.Printf("  - %s (%s)\n", s.Type, s.SubjectID)
		}
	}
}

func (o *Output) printUnlockRecordResult(r UnlockRecordResult) {
	o.printProgress(r.Progress)
	o.printRevalidateResult(r.Revalidation)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Title, g.ID)
	fmt.Printf("Kind: %s\n", g.Kind)
	fmt.Printf("Published achievements: %d\n", g.AchievementsPublished)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func printTimestamp(label string, t *time.Time) {
	if t == nil {
		return
	}
	fmt.Printf("%s: %s\n", label, t.Format(time.RFC3339))
}
