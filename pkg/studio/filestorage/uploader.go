package filestorage

import "context"

// Uploader pins artifacts to IPFS and returns their content hash.
type Uploader interface {
	UploadUrl(ctx context.Context, fileUrl string) (string, error)
	UploadJson(ctx context.Context, document interface{}) (string, error)
}
