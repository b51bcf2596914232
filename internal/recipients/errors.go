package recipients

import "errors"

// ErrUnknownFingerprint is returned when Tag references a fingerprint that
// was never recorded.
var ErrUnknownFingerprint = errors.New("recipients: unknown fingerprint")
