package config

const (
	// FreePlanPromptLimit is the maximum number of prompts a free-tier
	// customer may keep. Pro customers are unlimited. The frontend reads
	// this value from GET /api/limits instead of hard-coding its own copy,
	// so this constant is the single source of truth for the policy.
	FreePlanPromptLimit = 3

	// MaxPromptNameLength is the maximum length for prompt names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxPromptNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as prompt names for consistency.
	MaxFolderNameLength = 255
)
