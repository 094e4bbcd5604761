// Package clob implements a central limit order book matching engine.
package clob

import "github.com/holiman/uint256"

// U256 is the 256-bit unsigned intermediate used for every price/quantity
// product. price_lots * base_lot_size * qty_lots * quote_lot_size can
// overflow 128 bits well before any single dimension does, so every
// multiplication in lot math happens here before narrowing.
type U256 = uint256.Int

// u256FromU64 builds a U256 from a plain lot/price quantity.
func u256FromU64(v uint64) *U256 {
	return new(U256).SetUint64(v)
}

// u256Mul returns x * y without mutating either operand.
func u256Mul(x, y *U256) *U256 {
	return new(U256).Mul(x, y)
}

// u256MulU64 returns x * v.
func u256MulU64(x *U256, v uint64) *U256 {
	return u256Mul(x, u256FromU64(v))
}

// u256Div returns x / y, integer floor division. There is no rounding mode;
// division by zero panics through the fatal sink, matching the narrowing
// panics below rather than returning a silent zero.
func u256Div(x, y *U256) *U256 {
	if y.IsZero() {
		panicFatal("division by zero in fixed-point arithmetic")
	}
	return new(U256).Div(x, y)
}

func u256DivU64(x *U256, v uint64) *U256 {
	return u256Div(x, u256FromU64(v))
}

func u256Add(x, y *U256) *U256 {
	return new(U256).Add(x, y)
}

func u256Sub(x, y *U256) *U256 {
	if x.Lt(y) {
		panicFatal("narrowing underflow: subtrahend exceeds minuend")
	}
	return new(U256).Sub(x, y)
}

// toU64 narrows a U256 to a uint64, panicking (fatal, propagated to the
// host) if the value does not fit.
func toU64(x *U256) uint64 {
	if !x.IsUint64() {
		panicFatal("256-bit value does not fit in 64 bits")
	}
	return x.Uint64()
}

// toU128 narrows a U256 to a value known to fit in 128 bits, panicking
// (fatal) otherwise. The result is still represented as *U256 — Go has no
// native 128-bit integer — but every caller that receives one from this
// function may treat it as a u128 "native amount".
func toU128(x *U256) *U256 {
	b := x.Bytes32()
	for i := 0; i < 16; i++ {
		if b[i] != 0 {
			panicFatal("256-bit value does not fit in 128 bits")
		}
	}
	return new(U256).Set(x)
}
