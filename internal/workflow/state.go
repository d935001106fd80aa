package workflow

import "github.com/doctorazi/blogdesk/internal/model"

// StateOf derives the lifecycle state of a post record. A nil post or one
// without an id has never been committed.
func StateOf(p *model.Post) model.PostState {
	switch {
	case p == nil || p.ID == "":
		return model.StateDraft
	case p.IsRejected:
		return model.StateRejected
	default:
		return model.StateSaved
	}
}

func TranslationStateOf(p *model.Post) model.TranslationState {
	if p != nil && p.IsTranslated && p.Complete() {
		return model.StateTranslated
	}
	return model.StateUntranslated
}
