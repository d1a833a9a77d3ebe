//go:build !clausewitzdebug

package dispatch

const panicOnContract = false
