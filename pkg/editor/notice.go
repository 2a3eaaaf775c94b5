package editor

import (
	"fmt"

	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
)

// NoticeKind tags the outcome of an editor operation.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeChoiceAdded
	NoticeChoiceDeleted
	NoticeCleared
	NoticeSubmitted

	NoticeLabelRequired
	NoticeEmptyChoice
	NoticeDuplicateChoice
	NoticeChoiceNotFound
	NoticeOverMax
	NoticeDefaultNotInChoices
	NoticeInvalidDocument
	NoticeSubmitFailed
)

var noticeNames = map[NoticeKind]string{
	NoticeNone:                "none",
	NoticeChoiceAdded:         "choice_added",
	NoticeChoiceDeleted:       "choice_deleted",
	NoticeCleared:             "cleared",
	NoticeSubmitted:           "submitted",
	NoticeLabelRequired:       "label_required",
	NoticeEmptyChoice:         "empty_choice",
	NoticeDuplicateChoice:     "duplicate_choice",
	NoticeChoiceNotFound:      "choice_not_found",
	NoticeOverMax:             "over_max",
	NoticeDefaultNotInChoices: "default_not_in_choices",
	NoticeInvalidDocument:     "invalid_document",
	NoticeSubmitFailed:        "submit_failed",
}

func (k NoticeKind) String() string {
	if name, ok := noticeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("notice(%d)", int(k))
}

// Failure reports whether the kind aborts the operation.
func (k NoticeKind) Failure() bool {
	return k >= NoticeLabelRequired
}

// Result is the value every editor operation returns in place of a blocking
// alert. Only the fields relevant to Kind are populated.
type Result struct {
	Kind       NoticeKind
	Choice     string
	Max        int
	Definition *model.Definition
	Response   *submit.Response
	Err        error
}

// OK reports whether the operation went through.
func (r Result) OK() bool {
	return !r.Kind.Failure()
}

// Message renders the user-facing notice text.
func (r Result) Message() string {
	switch r.Kind {
	case NoticeChoiceAdded:
		return "Choice " + r.Choice + " added"
	case NoticeChoiceDeleted:
		return "Choice " + r.Choice + " deleted"
	case NoticeCleared:
		return "Form cleared"
	case NoticeSubmitted:
		if r.Response != nil && r.Response.ID != "" {
			return "Field saved as " + r.Response.ID
		}
		return "Field saved"
	case NoticeLabelRequired:
		return "Label field is required"
	case NoticeEmptyChoice:
		return "choice cannot be empty"
	case NoticeDuplicateChoice:
		return "duplicate choice"
	case NoticeChoiceNotFound:
		return "Choice did not find"
	case NoticeOverMax:
		return overMaxMessage(r.Max)
	case NoticeDefaultNotInChoices:
		return "default value not in choices"
	case NoticeInvalidDocument:
		return "field definition rejected: " + errText(r.Err)
	case NoticeSubmitFailed:
		return "submission failed: " + errText(r.Err)
	default:
		return ""
	}
}

func overMaxMessage(max int) string {
	return fmt.Sprintf("Over Max %d Choices!", max)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
