package catalog

import (
	"context"

	"artisan-market/internal/domain"
)

// Upload tracks one background image read started by SelectImage.
type Upload struct {
	selection Selection
	done      chan struct{}

	// written before done is closed
	image domain.EncodedImage
	err   error
}

func (u *Upload) Selection() Selection {
	return u.selection
}

// Done is closed once the read has finished, whether or not it was applied.
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Wait blocks until the read finishes or ctx is done. It returns the encoded image
// when it was applied to the draft; ErrSuperseded when a newer selection won.
func (u *Upload) Wait(ctx context.Context) (domain.EncodedImage, error) {
	select {
	case <-u.done:
		return u.image, u.err
	case <-ctx.Done():
		return domain.EncodedImage{}, ctx.Err()
	}
}

// Err returns the outcome of a finished read, or nil while it is still running.
func (u *Upload) Err() error {
	select {
	case <-u.done:
		return u.err
	default:
		return nil
	}
}
