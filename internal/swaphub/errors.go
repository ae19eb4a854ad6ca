package swaphub

import "errors"

var (
	// ErrNotMatched повертається, коли операція вимагає статусу matched,
	// але пара вже завершена, розірвана або ніколи не існувала.
	ErrNotMatched = errors.New("offer is not part of a matched pair")
	// ErrForbidden: викликач не є стороною пари, або сторона, що згенерувала
	// код, намагається сама його підтвердити.
	ErrForbidden = errors.New("caller is not allowed to perform this handshake step")
	// ErrWrongCode: надісланий код не збігається з чинним. Стан пари не
	// змінюється, можна ввести код повторно.
	ErrWrongCode = errors.New("confirmation code mismatch")
)
