package fixed

import "fmt"

// Complex is a complex Q1.15 sample. Each component is saturated
// independently; there is no joint magnitude constraint.
type Complex struct {
	Re int16 `json:"re" yaml:"re"`
	Im int16 `json:"im" yaml:"im"`
}

// NewComplex builds a Complex from external integers, saturating each part.
func NewComplex(re, im int) Complex {
	return Complex{Re: SaturateInt(re), Im: SaturateInt(im)}
}

// ComplexFromFloat quantizes a real/imaginary pair with ToFixed.
func ComplexFromFloat(re, im float64) Complex {
	return Complex{Re: ToFixed(re), Im: ToFixed(im)}
}

// Complex128 dequantizes c.
func (c Complex) Complex128() complex128 {
	return complex(FromFixed(c.Re), FromFixed(c.Im))
}

func (c Complex) String() string {
	return fmt.Sprintf("(%d,%d)", c.Re, c.Im)
}

// CAdd adds a and b component-wise with saturation.
func CAdd(a, b Complex) Complex {
	return Complex{Re: Add(a.Re, b.Re), Im: Add(a.Im, b.Im)}
}

// CSub subtracts b from a component-wise with saturation.
func CSub(a, b Complex) Complex {
	return Complex{Re: Sub(a.Re, b.Re), Im: Sub(a.Im, b.Im)}
}

// CMul multiplies a by b. Each of the four partial products goes through
// Mul (and is saturated there); the real and imaginary combinations are
// saturated again.
func CMul(a, b Complex) Complex {
	re := int64(Mul(a.Re, b.Re)) - int64(Mul(a.Im, b.Im))
	im := int64(Mul(a.Re, b.Im)) + int64(Mul(a.Im, b.Re))
	return Complex{Re: Saturate(re), Im: Saturate(im)}
}

// CRShift1 arithmetically shifts both components right by one bit. This is
// the hardware divide-by-two stage tap: it truncates toward negative
// infinity and cannot overflow.
func CRShift1(a Complex) Complex {
	return Complex{Re: a.Re >> 1, Im: a.Im >> 1}
}
