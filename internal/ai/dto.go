// FrancescoMazzola | 2026
// dto.go

package ai

type SubmitQueryRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Query  string `json:"query"  validate:"required,min=1,max=4000"`
}

type QueryResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	DataRoomID       string  `json:"dataRoomId"`
	QueryText        string  `json:"queryText"`
	ResponseText     *string `json:"responseText,omitempty"`
	FilesReferenced  *string `json:"filesReferenced,omitempty"`
	ProcessingStatus Status  `json:"processingStatus"`
	ProcessingTimeMs *int64  `json:"processingTimeMs,omitempty"`
	CreatedAt        int64   `json:"createdAt"`
}

func ToQueryResponse(q *Query) QueryResponse {
	return QueryResponse{
		ID:               q.ID,
		UserID:           q.UserID,
		DataRoomID:       q.DataRoomID,
		QueryText:        q.QueryText,
		ResponseText:     q.ResponseText,
		FilesReferenced:  q.FilesReferenced,
		ProcessingStatus: q.ProcessingStatus,
		ProcessingTimeMs: q.ProcessingTimeMs,
		CreatedAt:        q.CreatedAt,
	}
}

func ToQueryResponseList(queries []Query) []QueryResponse {
	out := make([]QueryResponse, len(queries))
	for i := range queries {
		out[i] = ToQueryResponse(&queries[i])
	}
	return out
}
