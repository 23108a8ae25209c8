package tui

// UI Text Constants
const (
	TextTitle = "📚 Question Bank Moderation"

	TextFooterDashboard = "1-4 open bucket | r refresh | q quit"
	TextFooterBucket    = "↑/↓ move | space select | a all | enter %s | x export | esc close"
	TextFooterFlagged   = "↑/↓ move | space select | a all | enter %s | v report | x export | esc close"
	TextFooterReadOnly  = "↑/↓ move | x export | esc close"
	TextFooterReport    = "↑/↓ match | c child | p parent | l parallel | u unique | d delete | esc back"
	TextFooterConfirm   = "y confirm delete | n cancel"

	TextConfirmDelete = "Delete question #%d permanently? (y/n)"
	TextNoMatches     = "No similar questions found for #%d"
	TextSubmitted     = "✅ Selection submitted"
	TextResolved      = "✅ Report resolved"
	TextEmptyBucket   = "No questions in this bucket."
)
