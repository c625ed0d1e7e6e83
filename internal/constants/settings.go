package constants

// Setting keys stored in the settings resource
const (
	SettingEnabledModules   = "enabled_modules"
	SettingSleepTargetHours = "sleep_target_hours"
	SettingTimezone         = "timezone"
)

// Default setting values
const (
	DefaultEnabledModules   = `["tasks", "habits", "sleep", "journal", "inventory"]`
	DefaultSleepTargetHours = "8"
	DefaultTimezone         = "UTC"
)

// DefaultSettings returns a fresh copy of the built-in setting defaults.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingEnabledModules:   DefaultEnabledModules,
		SettingSleepTargetHours: DefaultSleepTargetHours,
		SettingTimezone:         DefaultTimezone,
	}
}
