package domain

// Image описывает изображение товара, которое хранится в S3-совместимом хранилище.
type Image struct {
	ID          string // uuid
	ObjectKey   string
	Bytes       []byte
	Size        int64
	ContentType string // Example: "image/jpeg"
}

func NewImage(id, objectKey string, data []byte, size int64, contentType string) *Image {
	return &Image{
		ID:          id,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        size,
		ContentType: contentType,
	}
}
