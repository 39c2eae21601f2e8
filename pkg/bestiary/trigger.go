package bestiary

import (
	"fmt"
	"strconv"
)

// TriggerID identifies the input key that summons an item.
type TriggerID int

// The ten digit keys.
const (
	Key0 TriggerID = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// NumTriggers is the number of trigger keys.
const NumTriggers = 10

// Valid reports whether t is one of Key0..Key9.
func (t TriggerID) Valid() bool {
	return t >= Key0 && t <= Key9
}

// String returns the key's digit.
func (t TriggerID) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TriggerID(%d)", int(t))
	}
	return strconv.Itoa(int(t))
}

// ParseTrigger parses a single digit key name.
func ParseTrigger(s string) (TriggerID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || len(s) != 1 {
		return 0, fmt.Errorf("invalid trigger %q, expected a digit 0-9", s)
	}
	return TriggerID(n), nil
}

// Triggers returns every trigger in key order.
func Triggers() []TriggerID {
	out := make([]TriggerID, NumTriggers)
	for i := range out {
		out[i] = TriggerID(i)
	}
	return out
}
