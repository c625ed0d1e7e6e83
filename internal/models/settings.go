package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
)

// Setting is a single free-form key/value pair.
type Setting struct {
	Key       string    `json:"key"`
	Value     *string   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings is the typed view over the stored key/value pairs.
type Settings struct {
	EnabledModules   []string
	SleepTargetHours float64
	Timezone         string
}

// MapToSettings converts stored key/value pairs into Settings, falling back
// to defaults for missing or unparsable values.
func MapToSettings(data map[string]string) Settings {
	merged := constants.DefaultSettings()
	for k, v := range data {
		merged[k] = v
	}

	s := Settings{
		SleepTargetHours: constants.DefaultSleepTarget,
		Timezone:         merged[constants.SettingTimezone],
	}
	if err := json.Unmarshal([]byte(merged[constants.SettingEnabledModules]), &s.EnabledModules); err != nil {
		_ = json.Unmarshal([]byte(constants.DefaultEnabledModules), &s.EnabledModules)
	}
	if v, err := strconv.ParseFloat(merged[constants.SettingSleepTargetHours], 64); err == nil && v > 0 {
		s.SleepTargetHours = v
	}
	if s.Timezone == "" {
		s.Timezone = constants.DefaultTimezone
	}
	return s
}

// SettingsToMap converts Settings back into storable key/value pairs.
func SettingsToMap(s Settings) map[string]string {
	modules, _ := json.Marshal(s.EnabledModules)
	return map[string]string{
		constants.SettingEnabledModules:   string(modules),
		constants.SettingSleepTargetHours: strconv.FormatFloat(s.SleepTargetHours, 'f', -1, 64),
		constants.SettingTimezone:         s.Timezone,
	}
}
