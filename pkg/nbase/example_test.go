package nbase_test

import (
	"fmt"

	"github.com/agbru/nbase/pkg/nbase"
)

func Example() {
	f, _ := nbase.NewFactory()
	hex, _ := f.Repr(16, "")

	x, _ := hex.Parse("FF")
	y, _ := x.Mul(nbase.Int(2))
	fmt.Println(y)

	bin, _ := y.ConvertTo(2)
	fmt.Println(bin)
	// Output:
	// 1FE
	// 111111110
}

func ExampleInteger_DivMod() {
	r, _ := nbase.Default().Repr(10, "")
	q, m, _ := r.FromInt64(-7).DivMod(nbase.Int(2))
	fmt.Println(q, m)
	// Output: -3 -1
}

func ExampleInteger_Text() {
	f, _ := nbase.NewFactory()
	x, _ := f.FromInt64(123, 10, "")
	s, _ := x.Text("😀😁😂🤣😃😄😅😆😉😊")
	fmt.Println(s)
	fmt.Println(x.RawText())
	// Output:
	// 😁😂🤣
	// 1,2,3
}

func ExampleFactory_Repr_raw() {
	f, _ := nbase.NewFactory()
	x, _ := f.FromDigits([]int{36, 0, 999}, 1000, false)
	fmt.Println(x, x.Repr().IsRaw())
	// Output: 36,0,999 true
}
