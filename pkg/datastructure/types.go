package datastructure

import "strconv"

type Index = int32

const (
	INVALID_VERTEX_ID Index = -1
	INVALID_EDGE_ID   Index = -1
)

func ParseIndex(s string) (Index, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return Index(v), nil
}

const epsilon = 1e-9

func Eq(a, b float64) bool {
	return a-b < epsilon && b-a < epsilon
}

func Lt(a, b float64) bool {
	return a+epsilon < b
}

func Le(a, b float64) bool {
	return a < b+epsilon
}

func Gt(a, b float64) bool {
	return a > b+epsilon
}

func Ge(a, b float64) bool {
	return a+epsilon > b
}
