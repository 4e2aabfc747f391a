package constants

// HeaderSeparatorLength is the length of the header separator line.
const HeaderSeparatorLength = 50

// BoxBorderPadding is the padding used in box borders.
const BoxBorderPadding = 2

// MaxPromptAttempts is how many empty answers a required prompt tolerates before giving up.
const MaxPromptAttempts = 3
