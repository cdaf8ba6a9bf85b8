package index

import (
	"bytes"
	"encoding/binary"
)

func idKey(id int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// key = id(8) + 0x00 + slug，按 id 有序
func makePostKey(id int, slug string) []byte {
	buf := make([]byte, 0, 8+1+len(slug))
	buf = append(buf, idKey(id)...)
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func splitPostKey(k []byte) (int, string, bool) {
	if len(k) < 8+1 || k[8] != 0x00 {
		return 0, "", false
	}
	id := int(binary.BigEndian.Uint64(k[:8]))
	return id, string(bytes.Clone(k[9:])), true
}
