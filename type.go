package dctscale

type Float interface {
	~float32 | ~float64
}

type Real interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 |
		~float32 | ~float64
}
