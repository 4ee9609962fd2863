// Package dom provides the concrete render nodes produced by vtree views.
//
// A Node is an Element, a Text or a Comment. Elements keep their static
// attributes, bound properties and children; the runtime rebuilds element
// children from the element's view children after every change detection
// pass, so TextContent reflects the current state of nested containers.
package dom
