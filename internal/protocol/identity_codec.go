package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/blockedit/internal/world/block"
	"github.com/klauspost/compress/zstd"
)

// ErrCorruptPayload возвращается при разборе повреждённых данных
var ErrCorruptPayload = errors.New("corrupt identity payload")

// Формат: "BID1" | count uint32 | count * (type uint16, data int32), big-endian.
// Поле данных хранится упакованным как есть, шаблоны переживают сериализацию без изменений.
const (
	identityMagic    = "BID1"
	identityHeader   = len(identityMagic) + 4
	identityItemSize = 2 + 4
)

// EncodeIdentities сериализует список блоков
func EncodeIdentities(ids []block.Identity) []byte {
	buf := make([]byte, identityHeader, identityHeader+len(ids)*identityItemSize)
	copy(buf, identityMagic)
	binary.BigEndian.PutUint32(buf[len(identityMagic):], uint32(len(ids)))

	for _, id := range ids {
		buf = binary.BigEndian.AppendUint16(buf, uint16(id.Type))
		buf = binary.BigEndian.AppendUint32(buf, uint32(id.Data))
	}
	return buf
}

// DecodeIdentities разбирает список блоков
func DecodeIdentities(payload []byte) ([]block.Identity, error) {
	if len(payload) < identityHeader {
		return nil, fmt.Errorf("%w: %d bytes is shorter than header", ErrCorruptPayload, len(payload))
	}
	if string(payload[:len(identityMagic)]) != identityMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptPayload, payload[:len(identityMagic)])
	}

	count := int(binary.BigEndian.Uint32(payload[len(identityMagic):]))
	body := payload[identityHeader:]
	if len(body) != count*identityItemSize {
		return nil, fmt.Errorf("%w: %d items need %d bytes, got %d",
			ErrCorruptPayload, count, count*identityItemSize, len(body))
	}

	ids := make([]block.Identity, count)
	for i := range ids {
		off := i * identityItemSize
		ids[i] = block.NewIdentityData(
			block.BlockID(binary.BigEndian.Uint16(body[off:])),
			int32(binary.BigEndian.Uint32(body[off+2:])),
		)
	}
	return ids, nil
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// CompressIdentities сериализует список блоков и сжимает его zstd
func CompressIdentities(ids []block.Identity) ([]byte, error) {
	enc, _, err := zstdCodec()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd: %w", err)
	}
	return enc.EncodeAll(EncodeIdentities(ids), nil), nil
}

// DecompressIdentities распаковывает и разбирает список блоков
func DecompressIdentities(payload []byte) ([]block.Identity, error) {
	_, dec, err := zstdCodec()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd: %w", err)
	}

	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return DecodeIdentities(raw)
}
