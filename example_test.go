package vecbuf_test

import (
	"fmt"
	"log"

	"github.com/gogpu/vecbuf"
	"github.com/gogpu/vecbuf/backend"
)

func Example() {
	dev, q, err := backend.Get(backend.BackendSoftware)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	// Upload three spin components for two sites.
	spins, err := vecbuf.NewFromComponents(dev, q, vecbuf.AccessReadWrite,
		[]float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	if err != nil {
		log.Fatal(err)
	}
	defer spins.Free()

	xs := make([]float64, spins.Len())
	ys := make([]float64, spins.Len())
	zs := make([]float64, spins.Len())
	if err := vecbuf.CopyToHost(q, spins, xs, ys, zs); err != nil {
		log.Fatal(err)
	}

	fmt.Println(spins.Len(), spins.Size())
	fmt.Println(xs, ys, zs)
	// Output:
	// 2 24
	// [1 2] [3 4] [5 6]
}

func ExampleBuffer3_Zero() {
	dev := backend.NewSoftwareDevice()
	defer dev.Close()
	q := dev.Queue()

	field, err := vecbuf.NewFromComponents(dev, q, vecbuf.AccessReadWrite,
		[]float32{1, 1}, []float32{1, 1}, []float32{1, 1})
	if err != nil {
		log.Fatal(err)
	}
	defer field.Free()

	if err := field.Zero(q); err != nil {
		log.Fatal(err)
	}

	xs := make([]float32, field.Len())
	ys := make([]float32, field.Len())
	zs := make([]float32, field.Len())
	if err := vecbuf.CopyToHost(q, field, xs, ys, zs); err != nil {
		log.Fatal(err)
	}
	fmt.Println(xs, ys, zs)
	// Output:
	// [0 0] [0 0] [0 0]
}
