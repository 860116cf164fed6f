// Package tagging derives style tags from prompt text.
//
// Tags come from a fixed, ordered vocabulary of style descriptors. A tag applies
// to a prompt when its literal text occurs anywhere in the lower-cased prompt, so
// "4k" matches "4K UHD" and "noir" matches "noirish". Results are always in
// vocabulary order and the functions are pure: the same text yields the same tags.
package tagging
