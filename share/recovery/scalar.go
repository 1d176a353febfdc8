package recovery

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/celestiaorg/da-matrix/share"
)

// DecodeScalar parses the canonical little-endian field element heading the Cell payload.
func DecodeScalar(cell share.Cell) (fr.Element, error) {
	raw, err := cell.Scalar()
	if err != nil {
		return fr.Element{}, &SampleError{Row: cell.Row, Err: err}
	}

	var buf [fr.Bytes]byte
	copy(buf[:], raw)
	el, err := fr.LittleEndian.Element(&buf)
	if err != nil {
		return fr.Element{}, &SampleError{Row: cell.Row, Err: err}
	}
	return el, nil
}

// EncodeScalar serializes the field element into its canonical little-endian form.
func EncodeScalar(el fr.Element) []byte {
	var buf [fr.Bytes]byte
	fr.LittleEndian.PutElement(&buf, el)
	return buf[:]
}
