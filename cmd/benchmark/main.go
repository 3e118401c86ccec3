package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/bookfeed/pkg/book"
)

const (
	numOrders = 1_000_000
	minPrice  = 100_0000
	maxPrice  = 200_0000
	minSize   = 1_00000000
	maxSize   = 100_00000000
)

func main() {
	lob := book.NewLimitOrderBook()
	pool := book.NewOrderPool(&book.PoolConfig{
		InitialCapacity: numOrders,
		DuplicatePolicy: book.DuplicateOverwrite,
	})

	totalMatches := 0
	totalTakeSize := int64(0)

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side := book.Bid
		if rand.Intn(2) == 0 {
			side = book.Ask
		}
		price := minPrice + rand.Int63n(maxPrice-minPrice)
		size := minSize + rand.Int63n(maxSize-minSize)

		order, err := pool.Take(fmt.Sprintf("ORD-%06d", i), side, price, size)
		if err != nil {
			panic(err)
		}

		result := lob.Add(order)
		if result.TakeSize > 0 {
			totalMatches++
			totalTakeSize += result.TakeSize
		}
		for _, maker := range result.Makers {
			if maker.SizeRemaining <= 0 {
				pool.ReturnOrder(maker)
			} else {
				maker.ClearValueRemoved()
			}
		}
		if order.SizeRemaining <= 0 {
			pool.ReturnOrder(order)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders     : %d\n", numOrders)
	fmt.Printf("total matches    : %d\n", totalMatches)
	fmt.Printf("total taken size : %d\n", totalTakeSize)
	fmt.Printf("orders still live: %d\n", pool.LiveCount())
	fmt.Printf("time taken       : %s\n", elapsed)
	fmt.Printf("throughput       : %.0f orders/sec\n", float64(numOrders)/elapsed.Seconds())
}
