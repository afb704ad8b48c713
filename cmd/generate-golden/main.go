package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
)

// GoldenCase is a single arithmetic case in the golden file. Operands and
// results are decimal; the test converts them into Base before computing.
type GoldenCase struct {
	Op        string `json:"op"`
	Base      int    `json:"base"`
	A         string `json:"a"`
	B         string `json:"b"`
	Result    string `json:"result"`
	Remainder string `json:"remainder,omitempty"`
	// AText is A written with the default charset, set for bases up to 36.
	AText string `json:"a_text,omitempty"`
}

var bases = []int{2, 3, 5, 10, 16, 36, 1000, 1_000_000}

func main() {
	outputDir := flag.String("out", "pkg/nbase/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	pairs := [][2]*big.Int{
		{big.NewInt(0), big.NewInt(5)},
		{big.NewInt(123), big.NewInt(456)},
		{big.NewInt(-1537), big.NewInt(7)},
		{big.NewInt(999999999), big.NewInt(-333333)},
		{big.NewInt(-987654321), big.NewInt(-123456)},
		{sub(pow(2, 200), big.NewInt(1)), pow(3, 50)},
		{new(big.Int).Neg(add(pow(10, 60), big.NewInt(7))), sub(pow(10, 30), big.NewInt(1))},
		{pow(7, 90), new(big.Int).Neg(add(pow(2, 64), big.NewInt(13)))},
	}
	powers := []struct {
		a int64
		e int64
	}{
		{2, 10}, {-2, 3}, {-2, 4}, {0, 0}, {0, 5}, {15, 2}, {35, 2}, {-7, 33}, {123456789, 7},
	}

	var data []GoldenCase
	fmt.Println("Generating golden data...")

	for _, base := range bases {
		for _, p := range pairs {
			a, b := p[0], p[1]
			data = append(data,
				newCase("add", base, a, b, add(a, b), nil),
				newCase("sub", base, a, b, sub(a, b), nil),
				newCase("mul", base, a, b, new(big.Int).Mul(a, b), nil),
			)
			q, r := new(big.Int).QuoRem(a, b, new(big.Int))
			data = append(data, newCase("divmod", base, a, b, q, r))
		}
		for _, p := range powers {
			a, e := big.NewInt(p.a), big.NewInt(p.e)
			data = append(data, newCase("pow", base, a, e, new(big.Int).Exp(a, e, nil), nil))
		}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %d cases at %s\n", len(data), filename)
}

func newCase(op string, base int, a, b, result, rem *big.Int) GoldenCase {
	c := GoldenCase{Op: op, Base: base, A: a.String(), B: b.String(), Result: result.String()}
	if rem != nil {
		c.Remainder = rem.String()
	}
	if base <= 36 {
		// math/big writes letters in lower case; the default charset puts
		// upper case first.
		c.AText = strings.ToUpper(a.Text(base))
	}
	return c
}

func pow(a, e int64) *big.Int { return new(big.Int).Exp(big.NewInt(a), big.NewInt(e), nil) }
func add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
