package sim

import "strings"

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name cannot be used for a module or a queue.
// A valid name is a dot-separated list of elements, where each element starts
// with a capital letter and contains no separator characters.
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	for _, elem := range strings.Split(name, ".") {
		elemMustBeValid(name, elem)
	}
}

func elemMustBeValid(name, elem string) {
	if elem == "" {
		panic("name " + name + " is not valid: element must not be empty")
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		panic("name " + name +
			" is not valid: element must start with a capital letter")
	}

	for _, c := range []string{"_", "-", "\"", "'", " "} {
		if strings.Contains(elem, c) {
			panic("name " + name +
				" is not valid: element must not contain " + c)
		}
	}
}
