// Package export serializes golden-model arrays into the text formats used
// to preload FPGA block RAM and to compare against UART dumps: Xilinx .coe
// files, 4-digit hex .mem files and "bin,magnitude" lines.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/RyanBlaney/fft-golden/pkg/fft"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

const (
	coeRadixLine  = "memory_initialization_radix=10;"
	coeVectorLine = "memory_initialization_vector="
)

// Real returns the real parts of values.
func Real(values []fixed.Complex) []int16 {
	out := make([]int16, len(values))
	for i, c := range values {
		out[i] = c.Re
	}
	return out
}

// Imag returns the imaginary parts of values.
func Imag(values []fixed.Complex) []int16 {
	out := make([]int16, len(values))
	for i, c := range values {
		out[i] = c.Im
	}
	return out
}

// WriteCOE writes values as a radix-10 memory initialization file: one value
// per line, comma separated, the last terminated by a semicolon.
func WriteCOE(w io.Writer, values []int16) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, coeRadixLine)
	fmt.Fprintln(bw, coeVectorLine)
	for i, v := range values {
		fmt.Fprintf(bw, "%d%s\n", v, separator(i, len(values)))
	}
	return bw.Flush()
}

// WriteInterleavedCOE writes complex values into a single .coe, real part
// then imaginary part, each on its own line.
func WriteInterleavedCOE(w io.Writer, values []fixed.Complex) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, coeRadixLine)
	fmt.Fprintln(bw, coeVectorLine)
	for i, c := range values {
		fmt.Fprintf(bw, "%d,\n%d%s\n", c.Re, c.Im, separator(i, len(values)))
	}
	return bw.Flush()
}

// WriteHexMem writes one 4-digit lowercase hex word per line; negative
// values are written as their 16-bit two's complement pattern.
func WriteHexMem(w io.Writer, values []int16) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		fmt.Fprintf(bw, "%04x\n", uint16(v))
	}
	return bw.Flush()
}

// FormatUARTLines renders "bin,|X[bin]|²" for every bin of a spectrum.
func FormatUARTLines(y []fixed.Complex) []string {
	lines := make([]string, len(y))
	for k, c := range y {
		lines[k] = fmt.Sprintf("%d,%d", k, fft.SquaredMagnitude(c))
	}
	return lines
}

// WriteUARTLines writes FormatUARTLines output, newline terminated.
func WriteUARTLines(w io.Writer, y []fixed.Complex) error {
	bw := bufio.NewWriter(w)
	for _, line := range FormatUARTLines(y) {
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}

func separator(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ";"
}
