package model

type PostState string

const (
	StateDraft    PostState = "draft"
	StateSaved    PostState = "saved"
	StateRejected PostState = "rejected"
	StateDeleted  PostState = "deleted"
)

type TranslationState string

const (
	StateUntranslated TranslationState = "untranslated"
	StateTranslated   TranslationState = "translated"
)
