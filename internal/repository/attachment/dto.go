package attachment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dira-homes/dira/internal/domain/attachment"
)

type attachmentDoc struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	StorageName  string `json:"storageName"`
	Bucket       string `json:"bucket"`
	Region       string `json:"region"`
	Key          string `json:"key"`
	Type         string `json:"type"`
	Owner        string `json:"owner"`
	IsMainFile   bool   `json:"isMainFile"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

func encodeAttachment(a *attachment.Attachment) ([]byte, error) {
	data, err := json.Marshal(attachmentDoc{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		StorageName:  a.StorageName,
		Bucket:       a.Bucket,
		Region:       a.Region,
		Key:          a.Key,
		Type:         a.Type,
		Owner:        a.Owner,
		IsMainFile:   a.IsMainFile,
		CreatedAt:    a.CreatedAt.UnixMilli(),
		UpdatedAt:    a.UpdatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal attachment: %w", err)
	}
	return data, nil
}

func decodeAttachment(id string, data []byte) (attachment.Attachment, error) {
	var doc attachmentDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return attachment.Attachment{}, fmt.Errorf("unmarshal attachment %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return attachment.Attachment{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		StorageName:  doc.StorageName,
		Bucket:       doc.Bucket,
		Region:       doc.Region,
		Key:          doc.Key,
		Type:         doc.Type,
		Owner:        doc.Owner,
		IsMainFile:   doc.IsMainFile,
		CreatedAt:    time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(doc.UpdatedAt).UTC(),
	}, nil
}
