package utils

import (
	"strings"
)

// panic if err != nil
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Like math.Min for int
func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func ConvertArgsString(args []string) []interface{} {
	c := make([]interface{}, len(args))
	for i := range args {
		c[i] = args[i]
	}
	return c
}

func StringInSliceFold(str string, s []string) bool {
	for i := range s {
		if strings.EqualFold(str, s[i]) {
			return true
		}
	}
	return false
}

func FilterStringSlice(list []string, test func(string) bool) []string {
	filtered := []string(nil)
	for _, item := range list {
		if test(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func ClearDuplicateString(list []string) []string {
	m := make(map[string]bool, len(list))
	ret := make([]string, 0)
	for _, x := range list {
		if _, ok := m[x]; !ok {
			ret = append(ret, x)
			m[x] = true
		}
	}
	return ret
}

// SplitCSV splits a comma separated value list, trimming whitespace
// and dropping blanks.
func SplitCSV(s string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
