package filestorage

import (
	"context"
	"fmt"

	"github.com/zde37/pinata-go-sdk/pinata"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

const VendorPinata = "pinata"

type PinataUploader struct {
	client *pinata.Client
}

var _ Uploader = (*PinataUploader)(nil)

func NewPinataUploader(jwtKey string) *PinataUploader {
	return &PinataUploader{
		client: pinata.New(pinata.NewAuthWithJWT(jwtKey)),
	}
}

// UploadUrl pins the content behind fileUrl. The SDK has no context support,
// so ctx is only checked before the call.
func (u *PinataUploader) UploadUrl(ctx context.Context, fileUrl string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinResponse, err := u.client.PinURL(fileUrl, nil)
	if err != nil {
		return "", pinataError("pin url", err)
	}

	return pinResponse.IpfsHash, nil
}

func (u *PinataUploader) UploadJson(ctx context.Context, document interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinResponse, err := u.client.PinJSON(document, nil)
	if err != nil {
		return "", pinataError("pin json", err)
	}

	return pinResponse.IpfsHash, nil
}

func pinataError(operation string, err error) error {
	return &errs.VendorError{
		Vendor:  VendorPinata,
		Message: fmt.Sprintf("%s: %v", operation, err),
	}
}
