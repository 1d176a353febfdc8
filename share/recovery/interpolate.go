package recovery

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

// naiveZeroPolySize is the amount of roots below which vanishing polynomials are multiplied out
// directly instead of with FFT.
const naiveZeroPolySize = 64

// cosetShift moves evaluations off the domain where the vanishing polynomial has its roots. 7
// generates the multiplicative group of Fr, so it lies outside of every evaluation domain.
var cosetShift = fr.NewElement(7)

// Interpolate recovers every evaluation of a polynomial of degree below half of the domain size
// over the domain, given the known evaluations. Unknown evaluations are nil.
//
// The polynomial is recovered out of the first half-domain worth of known samples, with every
// other position treated as erased, and then evaluated over the whole domain. The remaining known
// samples have to agree with the result, otherwise ErrInconsistentSamples is returned.
func Interpolate(domain *fft.Domain, samples []*fr.Element) ([]fr.Element, error) {
	n := int(domain.Cardinality)
	if len(samples) != n {
		return nil, fmt.Errorf("%w: %d samples for domain of size %d", ErrInterpolation, len(samples), n)
	}

	degree := max(n/2, 1)
	values := make([]fr.Element, n)
	erased := make([]fr.Element, 0, n-degree)
	var (
		known int
		x     fr.Element
	)
	x.SetOne()
	for i, sample := range samples {
		if sample != nil && known < degree {
			values[i] = *sample
			known++
		} else {
			erased = append(erased, x)
		}
		x.Mul(&x, &domain.Generator)
	}
	if known < degree {
		return nil, fmt.Errorf("%w: %d distinct samples, need %d", ErrInterpolation, known, degree)
	}

	evals := values
	if len(erased) > 0 {
		domains := newDomainSet(domain)
		coeffs := recoverErased(domains, values, zeroPoly(domains, erased))
		domain.FFT(coeffs, fft.DIF)
		fft.BitReverse(coeffs)
		evals = coeffs
	}

	for i, sample := range samples {
		if sample != nil && !evals[i].Equal(sample) {
			return nil, fmt.Errorf("%w: row %d", ErrInconsistentSamples, i)
		}
	}
	return evals, nil
}

// Extend erasure codes the data into twice as many evaluations. Data is taken as evaluations over
// the domain of its own size, so that original values land on even positions of the result.
func Extend(data []fr.Element) ([]fr.Element, error) {
	k := len(data)
	if k == 0 || k&(k-1) != 0 || 2*k > MaxRows {
		return nil, fmt.Errorf("%w: cannot extend %d elements", ErrNotPowerOfTwo, k)
	}

	coeffs := make([]fr.Element, 2*k)
	copy(coeffs, data)
	fft.NewDomain(uint64(k)).FFTInverse(coeffs[:k], fft.DIF)
	fft.BitReverse(coeffs[:k])

	fft.NewDomain(uint64(2*k)).FFT(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs, nil
}

// recoverErased returns coefficients of the polynomial P matching the values wherever the
// vanishing polynomial Z of erased positions is non-zero. Values on erased positions are ignored.
//
// (P*Z) is known on the whole domain, being zero on erased positions, so it is interpolated
// directly and then divided by Z over a coset, where Z has no roots.
func recoverErased(domains *domainSet, values, zero []fr.Element) []fr.Element {
	n := len(values)
	domain := domains.get(uint64(n))

	zEvals := make([]fr.Element, n)
	copy(zEvals, zero)
	domain.FFT(zEvals, fft.DIF)
	fft.BitReverse(zEvals)

	pz := make([]fr.Element, n)
	for i := range values {
		pz[i].Mul(&values[i], &zEvals[i])
	}
	domain.FFTInverse(pz, fft.DIF)
	fft.BitReverse(pz)

	copy(zEvals, zero)
	clear(zEvals[len(zero):])
	shift(pz, cosetShift)
	shift(zEvals, cosetShift)
	domain.FFT(pz, fft.DIF)
	domain.FFT(zEvals, fft.DIF)
	zEvals = fr.BatchInvert(zEvals)
	for i := range pz {
		pz[i].Mul(&pz[i], &zEvals[i])
	}
	domain.FFTInverse(pz, fft.DIT)

	var inv fr.Element
	inv.Inverse(&cosetShift)
	shift(pz, inv)
	return pz
}

// zeroPoly returns coefficients, lowest first, of the monic polynomial vanishing on the roots.
func zeroPoly(domains *domainSet, roots []fr.Element) []fr.Element {
	if len(roots) <= naiveZeroPolySize {
		poly := make([]fr.Element, len(roots)+1)
		poly[0].SetOne()
		for i := range roots {
			var t fr.Element
			for j := i + 1; j > 0; j-- {
				t.Mul(&poly[j], &roots[i])
				poly[j].Sub(&poly[j-1], &t)
			}
			poly[0].Mul(&poly[0], &roots[i])
			poly[0].Neg(&poly[0])
		}
		return poly
	}

	half := len(roots) / 2
	return mulPoly(domains, zeroPoly(domains, roots[:half]), zeroPoly(domains, roots[half:]))
}

// mulPoly multiplies the polynomials with FFT.
func mulPoly(domains *domainSet, a, b []fr.Element) []fr.Element {
	size := len(a) + len(b) - 1
	domain := domains.get(nextPowerOfTwo(uint64(size)))

	ea := make([]fr.Element, domain.Cardinality)
	eb := make([]fr.Element, domain.Cardinality)
	copy(ea, a)
	copy(eb, b)
	domain.FFT(ea, fft.DIF)
	domain.FFT(eb, fft.DIF)
	for i := range ea {
		ea[i].Mul(&ea[i], &eb[i])
	}
	domain.FFTInverse(ea, fft.DIT)
	return ea[:size]
}

// shift scales i-th coefficient by g^i, so that evaluating the result at x evaluates the
// original polynomial at g*x.
func shift(poly []fr.Element, g fr.Element) {
	var acc fr.Element
	acc.SetOne()
	for i := range poly {
		poly[i].Mul(&poly[i], &acc)
		acc.Mul(&acc, &g)
	}
}

func nextPowerOfTwo(v uint64) uint64 {
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	return p
}

// domainSet keeps evaluation domains of a single recovery by size.
type domainSet struct {
	domains map[uint64]*fft.Domain
}

func newDomainSet(base *fft.Domain) *domainSet {
	return &domainSet{domains: map[uint64]*fft.Domain{base.Cardinality: base}}
}

func (s *domainSet) get(size uint64) *fft.Domain {
	if d, ok := s.domains[size]; ok {
		return d
	}
	d := fft.NewDomain(size)
	s.domains[size] = d
	return d
}
