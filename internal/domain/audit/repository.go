package audit

import "context"

// Sink records audit entries. Implementations must tolerate arbitrary nested
// numeric/decimal/string payloads in RequestData and ResponseData.
type Sink interface {
	Record(ctx context.Context, rec *Record) error
}
