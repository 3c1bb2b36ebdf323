// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys govern how the mpv widget is hosted and polled.
const (
	PlayerLibraryPollInterval = "player.library_poll_interval"
	PlayerLibraryMaxAttempts  = "player.library_max_attempts"
	PlayerReadyTimeout        = "player.ready_timeout"
	PlayerFPS                 = "player.fps"
	PlayerSpaceToggle         = "player.space_toggle"
	PlayerMPVArgs             = "player.mpv_args"
)

// Speed Control - these keys define the playback rate adjustment surface.
const (
	SpeedStep     = "speed.step"
	SpeedThrottle = "speed.throttle"
)

// Boundary Preview - these keys configure scrubbing previews before loop points are committed.
const (
	PreviewThrottle = "preview.throttle"
	PreviewLead     = "preview.lead"
)

// History Tracking - these keys configure the persistence of practiced loops.
const (
	HistorySave = "history.save"
)

// Share Links - these keys define how committed loops are rendered as links.
const (
	LinkBase = "link.base"
)

// Metadata - these keys govern the retrieval of video title and author information.
const (
	MetadataFetch = "metadata.fetch"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment.
const (
	TUIShowTimer       = "tui.show_timer"
	TUIShowSuggestions = "tui.show_suggestions"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
