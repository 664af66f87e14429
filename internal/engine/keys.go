package engine

// KeyTracker classifies string tokens coming from decoders that do not
// distinguish object keys from string values (encoding/json, go-json).
// Drivers report every string as KindString and pass each token through
// Classify.
type KeyTracker struct {
	// one entry per open container; true means an object expecting a key
	expectKey []bool
	isObject  []bool
}

// Classify updates the tracker and returns tok with KindKey set where needed.
func (k *KeyTracker) Classify(tok Token) Token {
	n := len(k.isObject)
	if tok.Kind == KindString && n > 0 && k.isObject[n-1] && k.expectKey[n-1] {
		k.expectKey[n-1] = false
		tok.Kind = KindKey
		return tok
	}
	switch tok.Kind {
	case KindBeginObject:
		k.valueDone()
		k.isObject = append(k.isObject, true)
		k.expectKey = append(k.expectKey, true)
	case KindBeginArray:
		k.valueDone()
		k.isObject = append(k.isObject, false)
		k.expectKey = append(k.expectKey, false)
	case KindEndObject, KindEndArray:
		if n > 0 {
			k.isObject = k.isObject[:n-1]
			k.expectKey = k.expectKey[:n-1]
		}
	default:
		k.valueDone()
	}
	return tok
}

// valueDone marks that the value of the current member has started, so the
// next string in the enclosing object is a key again.
func (k *KeyTracker) valueDone() {
	if n := len(k.isObject); n > 0 && k.isObject[n-1] {
		k.expectKey[n-1] = true
	}
}
