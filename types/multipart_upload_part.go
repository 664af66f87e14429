package types

import (
	"context"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/dsl"
)

// MultipartUploadPart identifies one uploaded part of a multipart upload.
// On the wire: {"e_tag": string, "part_number": number}.
type MultipartUploadPart struct {
	ETag       string
	PartNumber float64
}

var multipartUploadPartSchema wireschema.Schema[MultipartUploadPart] = dsl.Object(
	dsl.Property("eTag", "e_tag", dsl.String(), func(p *MultipartUploadPart) *string { return &p.ETag }),
	dsl.Property("partNumber", "part_number", dsl.Number(), func(p *MultipartUploadPart) *float64 { return &p.PartNumber }),
).Titled("MultipartUploadPart")

// MultipartUploadPartSchema returns the schema of MultipartUploadPart.
func MultipartUploadPartSchema() wireschema.Schema[MultipartUploadPart] {
	return multipartUploadPartSchema
}

func (m MultipartUploadPart) MarshalJSON() ([]byte, error) {
	return wireschema.SerializeJSON(context.Background(), multipartUploadPartSchema, m)
}

func (m *MultipartUploadPart) UnmarshalJSON(data []byte) error {
	v, err := wireschema.ParseJSON(context.Background(), multipartUploadPartSchema, data)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
