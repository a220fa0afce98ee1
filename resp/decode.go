package resp

import (
	"bytes"
	"strconv"
)

// Decode parses the next frame out of buf's unread bytes. On success
// it advances buf past exactly the bytes the frame occupied and
// returns the frame. If buf holds a valid but truncated prefix of a
// frame, it returns ErrIncomplete and leaves buf untouched. If buf's
// prefix cannot be a valid frame, it returns a *FrameError and the
// connection this buffer backs must be closed; no further Decode call
// on the same buf is meaningful.
func Decode(buf *Buffer) (Frame, error) {
	f, n, err := decodeFrame(buf.Bytes())
	if err != nil {
		return Frame{}, err
	}
	buf.Advance(n)
	return f, nil
}

// ExpectLength reports how many bytes the next frame in data will
// consume, without mutating data or requiring a Buffer. It returns
// ErrIncomplete if data holds a truncated prefix, or a *FrameError if
// data cannot be a valid frame.
func ExpectLength(data []byte) (int, error) {
	_, n, err := decodeFrame(data)
	return n, err
}

// decodeFrame is the single recursive entry point used by both Decode
// and ExpectLength. It never mutates data; it only reads from it and
// reports how many leading bytes a complete frame would occupy.
func decodeFrame(data []byte) (Frame, int, error) {
	if len(data) == 0 {
		return Frame{}, 0, ErrIncomplete
	}

	switch Type(data[0]) {
	case TypeSimpleString:
		return decodeSimpleString(data)
	case TypeSimpleError:
		return decodeSimpleError(data)
	case TypeInteger:
		return decodeInteger(data)
	case TypeBulkString:
		return decodeBulkString(data)
	case TypeArray:
		return decodeArray(data)
	case TypeNull:
		return decodeNull(data)
	case TypeBoolean:
		return decodeBoolean(data)
	case TypeDouble:
		return decodeDouble(data)
	case TypeMap:
		return decodeMap(data)
	case TypeSet:
		return decodeSet(data)
	default:
		return Frame{}, 0, newFrameError(KindInvalidFrameType, "unrecognized prefix %q", data[0])
	}
}

// indexCRLF returns the index of the first CRLF pair in data, or -1
// if none is present yet.
func indexCRLF(data []byte) int {
	return bytes.Index(data, []byte(crlf))
}

// decodeLine locates the line starting at data[1:] (the prefix byte
// data[0] is assumed already identified by the caller) and returns
// its body and the total bytes consumed, including the prefix and the
// terminating CRLF.
func decodeLine(data []byte) (body []byte, consumed int, err error) {
	idx := indexCRLF(data[1:])
	if idx < 0 {
		return nil, 0, ErrIncomplete
	}
	return data[1 : 1+idx], 1 + idx + 2, nil
}

func decodeSimpleString(data []byte) (Frame, int, error) {
	body, n, err := decodeLine(data)
	if err != nil {
		return Frame{}, 0, err
	}
	return SimpleString(string(body)), n, nil
}

func decodeSimpleError(data []byte) (Frame, int, error) {
	body, n, err := decodeLine(data)
	if err != nil {
		return Frame{}, 0, err
	}
	return SimpleError(string(body)), n, nil
}

func decodeInteger(data []byte) (Frame, int, error) {
	body, n, err := decodeLine(data)
	if err != nil {
		return Frame{}, 0, err
	}
	v, err := strconv.ParseInt(string(body), 10, 64)
	if err != nil {
		return Frame{}, 0, newFrameError(KindParseInt, "%v", err)
	}
	return Integer(v), n, nil
}

func decodeDouble(data []byte) (Frame, int, error) {
	body, n, err := decodeLine(data)
	if err != nil {
		return Frame{}, 0, err
	}
	v, err := strconv.ParseFloat(string(body), 64)
	if err != nil {
		return Frame{}, 0, newFrameError(KindParseFloat, "%v", err)
	}
	return Double(v), n, nil
}

// Upper bounds on declared lengths, mirroring the reference server's
// own protocol limits: a bulk string payload tops out at 512MB and an
// aggregate at 1M elements. A header declaring more is malformed, not
// an invitation to buffer gigabytes before finding out.
const (
	maxBulkLength      = 512 << 20
	maxAggregateLength = 1 << 20
)

// decodeLength parses the length header of a BulkString/Array/Map/Set
// frame: the prefix byte, a signed decimal, and a terminating CRLF. It
// returns the parsed length, the bytes the header itself consumed,
// and an error. allowNegOne controls whether a length of exactly -1
// (the null sentinel) is accepted; it is only valid for BulkString and
// Array. Lengths above max are rejected.
func decodeLength(data []byte, allowNegOne bool, max int64) (length int64, consumed int, err error) {
	body, n, err := decodeLine(data)
	if err != nil {
		return 0, 0, err
	}
	v, perr := strconv.ParseInt(string(body), 10, 64)
	if perr != nil {
		return 0, 0, newFrameError(KindInvalidFrame, "parse error: %v", perr)
	}
	switch {
	case v == -1 && allowNegOne:
		return -1, n, nil
	case v < 0:
		return 0, 0, newFrameError(KindInvalidFrameLength, "Invalid Length: %d", v)
	case v > max:
		return 0, 0, newFrameError(KindInvalidFrameLength, "Invalid Length: %d", v)
	default:
		return v, n, nil
	}
}

// prealloc bounds the capacity reserved up front for an aggregate's
// elements, so a length header alone cannot force a large allocation
// before a single element byte has arrived.
func prealloc(n int64) int {
	if n > 64 {
		return 64
	}
	return int(n)
}

func decodeBulkString(data []byte) (Frame, int, error) {
	length, headerLen, err := decodeLength(data, true, maxBulkLength)
	if err != nil {
		return Frame{}, 0, err
	}
	if length == -1 {
		return NullBulkString(), headerLen, nil
	}

	need := headerLen + int(length) + 2
	if len(data) < need {
		return Frame{}, 0, ErrIncomplete
	}
	body := data[headerLen : headerLen+int(length)]
	if data[headerLen+int(length)] != '\r' || data[headerLen+int(length)+1] != '\n' {
		return Frame{}, 0, newFrameError(KindInvalidFrame, "missing CRLF terminator")
	}

	cp := make([]byte, len(body))
	copy(cp, body)
	return BulkString(cp), need, nil
}

func decodeArray(data []byte) (Frame, int, error) {
	length, headerLen, err := decodeLength(data, true, maxAggregateLength)
	if err != nil {
		return Frame{}, 0, err
	}
	if length == -1 {
		return NullArray(), headerLen, nil
	}

	elems := make([]Frame, 0, prealloc(length))
	total := headerLen
	for i := int64(0); i < length; i++ {
		el, n, err := decodeFrame(data[total:])
		if err != nil {
			return Frame{}, 0, err
		}
		elems = append(elems, el)
		total += n
	}
	return Array(elems), total, nil
}

func decodeSet(data []byte) (Frame, int, error) {
	length, headerLen, err := decodeLength(data, false, maxAggregateLength)
	if err != nil {
		return Frame{}, 0, err
	}

	elems := make([]Frame, 0, prealloc(length))
	total := headerLen
	for i := int64(0); i < length; i++ {
		el, n, err := decodeFrame(data[total:])
		if err != nil {
			return Frame{}, 0, err
		}
		elems = append(elems, el)
		total += n
	}
	return Frame{Type: TypeSet, Set: elems}, total, nil
}

func decodeMap(data []byte) (Frame, int, error) {
	length, headerLen, err := decodeLength(data, false, maxAggregateLength)
	if err != nil {
		return Frame{}, 0, err
	}

	pairs := make([]Pair, 0, prealloc(length))
	total := headerLen
	for i := int64(0); i < length; i++ {
		if total >= len(data) {
			return Frame{}, 0, ErrIncomplete
		}
		if Type(data[total]) != TypeSimpleString {
			return Frame{}, 0, newFrameError(KindInvalidFrameType, "map key must be a SimpleString")
		}
		keyFrame, kn, err := decodeSimpleString(data[total:])
		if err != nil {
			return Frame{}, 0, err
		}
		total += kn

		val, vn, err := decodeFrame(data[total:])
		if err != nil {
			return Frame{}, 0, err
		}
		total += vn

		pairs = append(pairs, Pair{Key: keyFrame.Str, Value: val})
	}
	return newMapFrame(pairs), total, nil
}

func decodeNull(data []byte) (Frame, int, error) {
	const lit = "_\r\n"
	if len(data) < len(lit) {
		return Frame{}, 0, ErrIncomplete
	}
	if string(data[:len(lit)]) != lit {
		return Frame{}, 0, newFrameError(KindInvalidFrame, "malformed null literal")
	}
	return Null(), len(lit), nil
}

func decodeBoolean(data []byte) (Frame, int, error) {
	if len(data) < 2 {
		return Frame{}, 0, ErrIncomplete
	}
	var v bool
	switch data[1] {
	case 't':
		v = true
	case 'f':
		v = false
	default:
		return Frame{}, 0, newFrameError(KindInvalidFrameType, "expected 't' or 'f', got %q", data[1])
	}
	if len(data) < 4 {
		return Frame{}, 0, ErrIncomplete
	}
	if data[2] != '\r' || data[3] != '\n' {
		return Frame{}, 0, newFrameError(KindInvalidFrame, "missing CRLF terminator")
	}
	return Boolean(v), 4, nil
}
