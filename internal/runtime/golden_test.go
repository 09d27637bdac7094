package runtime

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// runAndSnapshot runs source and snapshots its captured stdout, so a
// behavior change in any of the scenarios below shows up as a diff against
// the committed snapshot rather than a hand-maintained expected string.
func runAndSnapshot(t *testing.T, name, source string) {
	t.Helper()
	out, _, err := runSource(source)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, name, out)
}

func TestGoldenFibonacciSequence(t *testing.T) {
	runAndSnapshot(t, "fibonacci", `
func fib(n) -> {
  if n <= 1 {
    return n
  }
  return fib(n - 1) + fib(n - 2)
}
var i = 0
while i < 10 {
  print(fib(i))
  i += 1
}`)
}

func TestGoldenClosureCounter(t *testing.T) {
	runAndSnapshot(t, "closure_counter", `
func makeCounter(start) -> {
  var count = start
  func next() -> {
    count += 1
    return count
  }
  return next
}
var a = makeCounter(0)
var b = makeCounter(100)
print(a())
print(a())
print(b())
print(a())
print(b())`)
}

func TestGoldenListAndStringOps(t *testing.T) {
	runAndSnapshot(t, "list_and_string_ops", `
var words = ['lo', 'rem']
print(words * 2)
print('-' * 5)
print(len(words))
print(upper('shout'))
print(lower('QUIET'))`)
}

func TestGoldenForLoopAccumulation(t *testing.T) {
	runAndSnapshot(t, "for_loop_accumulation", `
var total = 0
for i = 1 to 10 {
  if i % 2 == 0 {
    continue
  }
  total += i
}
print(total)`)
}

func TestGoldenNestedControlFlow(t *testing.T) {
	runAndSnapshot(t, "nested_control_flow", `
func classify(n) -> {
  if n % 15 == 0 {
    return 'fizzbuzz'
  } elif n % 3 == 0 {
    return 'fizz'
  } elif n % 5 == 0 {
    return 'buzz'
  } else {
    return str(n)
  }
}
for i = 1 to 15 {
  print(classify(i))
}`)
}
