package entity

// Status constants for Project
const (
	ProjectStatusDraft      = "임시저장" // saved draft
	ProjectStatusInProgress = "작성중"  // being written
	ProjectStatusCompleted  = "완료"   // plan finalized
)
