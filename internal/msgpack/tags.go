package msgpack

// Tag bytes. Ranges that inline a payload are listed by their first byte.
const (
	posFixintMax = 0x7f // 0x00 - 0x7f
	fixArray     = 0x90 // 0x90 - 0x9f
	fixStr       = 0xa0 // 0xa0 - 0xbf
	tagFalse     = 0xc2
	tagTrue      = 0xc3
	tagUint8     = 0xcc
	tagUint16    = 0xcd
	tagUint32    = 0xce
	tagUint64    = 0xcf
	tagInt8      = 0xd0
	tagInt16     = 0xd1
	tagInt32     = 0xd2
	tagInt64     = 0xd3
	tagStr8      = 0xd9
	tagStr16     = 0xda
	tagStr32     = 0xdb
	tagArray16   = 0xdc
	tagArray32   = 0xdd
	negFixint    = 0xe0 // 0xe0 - 0xff
)

const (
	negFixintMin = -0x20
	fixArrayMax  = 0x0f
	fixStrMax    = 0x1f
)

// eofTag is the tag reported by Decoder.Type when the stream is exhausted.
// It is the byte value of an end-of-stream sentinel of -1.
const eofTag = 0xff
