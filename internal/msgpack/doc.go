// Package msgpack implements the constrained MessagePack subset used on the
// build status pipe.
//
// Only four value kinds exist on the wire: booleans, signed integers,
// unsigned integers and byte strings, plus array headers that group values
// into messages. Maps, floats, binary blobs and extension types are not
// supported. The Encoder always picks the narrowest tag that can carry a
// value; the Decoder accepts any tag whose range covers the requested kind,
// so streams produced by other MessagePack encoders decode as well.
//
// Decoding errors are sticky. The first failure is recorded on the Decoder
// and later reads keep consuming bytes mechanically, but their results are
// meaningless. Callers read a batch of fields and then check Err (or Error)
// once, rather than testing every call.
package msgpack
