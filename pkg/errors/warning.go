package errors

import "fmt"

// Warning is a non-fatal, user-visible problem reported by a visual.
//
// Warnings are handed to the host's warning sink instead of being returned as
// errors: the visual keeps rendering (stale or empty data) and the host shows
// a warning glyph with Title, Message and Detail.
type Warning struct {
	Code    Code   `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// String renders the warning on one line for logs.
func (w Warning) String() string {
	if w.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", w.Code, w.Message, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// InvalidValuesWarning reports that the converted data still contains
// non-finite ranges after normalization.
func InvalidValuesWarning(detail string) Warning {
	return Warning{
		Code:    ErrCodeInvalidData,
		Title:   "Invalid data values",
		Message: "Some values in this visual could not be displayed because they are not finite numbers.",
		Detail:  detail,
	}
}

// TooManySeriesWarning reports that the data view has more value series than
// the visual supports. The update is discarded.
func TooManySeriesWarning(visual string, got, limit int) Warning {
	return Warning{
		Code:    ErrCodeTooManySeries,
		Title:   "Too many values",
		Message: fmt.Sprintf("The %s visual supports at most %d value series.", visual, limit),
		Detail:  fmt.Sprintf("received %d series", got),
	}
}

// UnknownLocationsWarning reports that some map locations could not be
// geocoded and are not drawn.
func UnknownLocationsWarning(count int) Warning {
	return Warning{
		Code:    ErrCodeLocationNotFound,
		Title:   "Unknown locations",
		Message: fmt.Sprintf("%d location(s) could not be found and are not shown.", count),
	}
}
