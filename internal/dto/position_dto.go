package dto

import "time"

type PositionDetailsPayload struct {
	Salary     *string `json:"salary"`
	Location   *string `json:"location"`
	Experience *string `json:"experience"`
	Benefits   *string `json:"benefits"`
	Notes      *string `json:"notes"`
}

type SavePositionRequest struct {
	ClientName string
	Name       string                 `json:"name" validate:"required,min=1,max=200"`
	Details    PositionDetailsPayload `json:"details"`
}

type RenamePositionRequest struct {
	ClientName string
	OldName    string
	NewName    string `json:"new_name" validate:"required,min=1,max=200"`
}

type PositionResponse struct {
	ClientName string                `json:"client_name"`
	Name       string                `json:"name"`
	Details    PositionDetailsFields `json:"details"`
	FileCount  int64                 `json:"file_count"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  *time.Time            `json:"updated_at"`
}

type PositionDetailsFields struct {
	Salary     string `json:"salary"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
	Benefits   string `json:"benefits"`
	Notes      string `json:"notes"`
}

type FileResponse struct {
	ClientName   string    `json:"client_name"`
	PositionName string    `json:"position_name"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Decision     string    `json:"decision"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type UploadFilesResponse struct {
	Uploaded []FileResponse `json:"uploaded"`
}
