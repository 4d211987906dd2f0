package out

import "context"

// Writer stores an encoded export under name and returns where it went.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}
