package rules

import "strings"

// splitImageRef splits a FROM value into image and tag. The tag is empty
// when the reference carries none. A colon inside a registry host part
// (e.g. localhost:5000/app) is not a tag separator.
func splitImageRef(ref string) (image, tag string) {
	ref = strings.TrimSpace(ref)
	// Drop stage aliases ("image AS builder") and platform flags.
	if fields := strings.Fields(ref); len(fields) > 0 {
		ref = fields[0]
		for _, f := range fields {
			if !strings.HasPrefix(f, "--") {
				ref = f
				break
			}
		}
	}
	i := strings.LastIndex(ref, ":")
	if i < 0 || strings.Contains(ref[i:], "/") {
		return ref, ""
	}
	return ref[:i], ref[i+1:]
}
