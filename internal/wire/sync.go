// Package wire defines the JSON contract between the Sumdays client and the
// sync server: the delta upload request, its acknowledgement, and the full
// fetch response.
//
// Absent sections mean "nothing to report". A request with neither a deleted
// nor an edited section is a valid no-op.
package wire

// Status values carried in SyncResponse.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SyncRequest is the delta uploaded by a client.
type SyncRequest struct {
	Deleted *DeletedSection `json:"deleted,omitempty"`
	Edited  *EditedSection  `json:"edited,omitempty"`
}

// DeletedSection lists natural keys of tombstoned rows per kind.
type DeletedSection struct {
	Memo        []int64  `json:"memo,omitempty"`
	DailyEntry  []string `json:"dailyEntry,omitempty" validate:"dive,required"`
	UserStyle   []int64  `json:"userStyle,omitempty"`
	WeekSummary []string `json:"weekSummary,omitempty" validate:"dive,required"`
}

// EditedSection carries full payloads of created or updated rows per kind.
type EditedSection struct {
	Memo        []Memo        `json:"memo,omitempty" validate:"dive"`
	DailyEntry  []DailyEntry  `json:"dailyEntry,omitempty" validate:"dive"`
	UserStyle   []UserStyle   `json:"userStyle,omitempty" validate:"dive"`
	WeekSummary []WeekSummary `json:"weekSummary,omitempty" validate:"dive"`
}

// SyncResponse acknowledges a delta upload.
type SyncResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FetchResponse is the complete dataset of one user. Lists are never null.
type FetchResponse struct {
	Memo        []Memo        `json:"memo"`
	DailyEntry  []DailyEntry  `json:"dailyEntry"`
	WeekSummary []WeekSummary `json:"weekSummary"`
	UserStyle   []UserStyle   `json:"userStyle"`
}

// PresignResponse returns an object key together with a presigned URL.
type PresignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// NewSyncRequest assembles a request, dropping empty kinds and then empty
// sections, so that only what changed goes over the wire.
func NewSyncRequest(deleted DeletedSection, edited EditedSection) *SyncRequest {
	req := &SyncRequest{}
	if !deleted.IsEmpty() {
		d := deleted
		req.Deleted = &d
	}
	if !edited.IsEmpty() {
		e := edited
		req.Edited = &e
	}
	return req
}

// IsEmpty reports whether nothing is to be deleted.
func (d *DeletedSection) IsEmpty() bool {
	return d == nil || len(d.Memo)+len(d.DailyEntry)+len(d.UserStyle)+len(d.WeekSummary) == 0
}

// IsEmpty reports whether nothing is to be upserted.
func (e *EditedSection) IsEmpty() bool {
	return e == nil || len(e.Memo)+len(e.DailyEntry)+len(e.UserStyle)+len(e.WeekSummary) == 0
}

// IsEmpty reports whether the request carries no change at all.
func (r *SyncRequest) IsEmpty() bool {
	return r == nil || (r.Deleted.IsEmpty() && r.Edited.IsEmpty())
}

// EmptyFetchResponse returns a response with all lists initialised.
func EmptyFetchResponse() *FetchResponse {
	return &FetchResponse{
		Memo:        []Memo{},
		DailyEntry:  []DailyEntry{},
		WeekSummary: []WeekSummary{},
		UserStyle:   []UserStyle{},
	}
}
