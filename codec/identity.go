package codec

import (
	"context"

	wireschema "github.com/opik-go/wireschema"
)

// Identity returns a Codec[T,T] over s that performs no transformation.
func Identity[T any](s wireschema.Schema[T]) wireschema.Codec[T, T] {
	return identityCodec[T]{in: s}
}

type identityCodec[T any] struct{ in wireschema.Schema[T] }

func (c identityCodec[T]) In() wireschema.Schema[T] { return c.in }

func (identityCodec[T]) Decode(ctx context.Context, a T) (T, error) { return a, nil }

func (identityCodec[T]) Encode(ctx context.Context, b T) (T, error) { return b, nil }
