/*
snapshot.go - Serialization of ledger state to the key/value store

PURPOSE:
  Encodes State as independently JSON-encoded key/value pairs and
  reconstructs it tolerantly: every field decodes on its own, and a
  missing or malformed value falls back to that field's default without
  discarding its siblings.

SCHEMA:
  schema_version      int    explicit first-run / versioning marker
  lessons             array  booking history, newest first
  total_hours         string cumulative granted capacity (decimal)
  hours_remaining     string current balance (decimal)
  hours_completed     string derivable; recomputed when absent
  intro_acknowledged  bool   one-shot intro gate

LEGACY KEYS:
  Earlier snapshots used ad hoc names (hours, introShown, totalHours,
  hoursCompleted, guitar_lessons) and stored numbers unquoted. Those are
  accepted on read when the v1 key is absent; the next write migrates the
  snapshot to the versioned schema.

SEE ALSO:
  - store.go: The Store interface this feeds
  - ledger.go: Calls decodeState on Open, encodeState on every mutation
*/
package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const snapshotVersion = 1

const (
	keySchemaVersion     = "schema_version"
	keyLessons           = "lessons"
	keyTotalHours        = "total_hours"
	keyHoursRemaining    = "hours_remaining"
	keyHoursCompleted    = "hours_completed"
	keyIntroAcknowledged = "intro_acknowledged"
)

// legacyKeys maps v1 keys to the names older snapshots used.
var legacyKeys = map[string][]string{
	keyLessons:           {"guitar_lessons"},
	keyTotalHours:        {"totalHours"},
	keyHoursRemaining:    {"hours", "hours_remaining_legacy", "hoursRemaining"},
	keyHoursCompleted:    {"hoursCompleted", "hours_completed_legacy"},
	keyIntroAcknowledged: {"introShown", "intro_shown"},
}

// encodeState serializes state into the versioned key/value schema.
func encodeState(s State) map[string]string {
	lessons := s.Lessons
	if lessons == nil {
		lessons = []Lesson{}
	}
	lessonsJSON, err := json.Marshal(lessons)
	if err != nil {
		lessonsJSON = []byte("[]")
	}
	version, _ := json.Marshal(snapshotVersion)
	intro, _ := json.Marshal(s.IntroAcknowledged)
	return map[string]string{
		keySchemaVersion:     string(version),
		keyLessons:           string(lessonsJSON),
		keyTotalHours:        encodeDecimal(s.TotalHours),
		keyHoursRemaining:    encodeDecimal(s.HoursRemaining),
		keyHoursCompleted:    encodeDecimal(s.HoursCompleted),
		keyIntroAcknowledged: string(intro),
	}
}

// decodeState reconstructs state from a snapshot. The second return value
// reports a first run: no versioned marker and no recognizable data keys.
// Defaults are applied per field, never all-or-nothing.
func decodeState(kv map[string]string, defaultTotal decimal.Decimal) (State, bool) {
	if len(kv) == 0 {
		return defaultState(defaultTotal), true
	}
	if _, versioned := kv[keySchemaVersion]; !versioned && !hasAnyDataKey(kv) {
		return defaultState(defaultTotal), true
	}

	s := State{}
	s.Lessons = decodeLessons(lookup(kv, keyLessons))

	total, totalOK := decodeDecimal(lookup(kv, keyTotalHours))
	remaining, remainingOK := decodeDecimal(lookup(kv, keyHoursRemaining))
	completed, completedOK := decodeDecimal(lookup(kv, keyHoursCompleted))

	// Resolve the three budget fields from whichever subset survived.
	// Some snapshots omit hours_completed entirely and expect it derived.
	switch {
	case !totalOK && remainingOK && completedOK:
		total = remaining.Add(completed)
	case !totalOK:
		total = defaultTotal
	}
	if !completedOK {
		if remainingOK {
			completed = total.Sub(remaining)
		} else {
			completed = decimal.Zero
		}
	}
	if !remainingOK {
		remaining = total.Sub(completed)
	}

	s.TotalHours = total
	s.HoursCompleted = clampZero(completed)
	s.HoursRemaining = clampZero(remaining)

	if v, ok := decodeBool(lookup(kv, keyIntroAcknowledged)); ok {
		s.IntroAcknowledged = v
	}
	return s, false
}

// lookup returns the value for a v1 key, falling back to legacy aliases.
func lookup(kv map[string]string, key string) (string, bool) {
	if v, ok := kv[key]; ok {
		return v, true
	}
	for _, alias := range legacyKeys[key] {
		if v, ok := kv[alias]; ok {
			return v, true
		}
	}
	return "", false
}

func hasAnyDataKey(kv map[string]string) bool {
	for key := range legacyKeys {
		if _, ok := lookup(kv, key); ok {
			return true
		}
	}
	return false
}

func encodeDecimal(d decimal.Decimal) string {
	b, _ := json.Marshal(d.String())
	return string(b)
}

// decodeDecimal accepts both the v1 encoding (JSON string "27.5") and the
// legacy encoding (bare number 27.5).
func decodeDecimal(raw string, ok bool) (decimal.Decimal, bool) {
	if !ok {
		return decimal.Zero, false
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return d, true
		}
		return decimal.Zero, false
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return d, true
	}
	return decimal.Zero, false
}

func decodeBool(raw string, ok bool) (bool, bool) {
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return false, false
	}
	return b, true
}

// decodeLessons recovers as many entries as possible: a malformed array
// yields the empty history, a malformed entry is skipped.
func decodeLessons(raw string, ok bool) []Lesson {
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	var lessons []Lesson
	for _, entry := range entries {
		var l Lesson
		if err := json.Unmarshal(entry, &l); err != nil {
			continue
		}
		lessons = append(lessons, l)
	}
	return lessons
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
