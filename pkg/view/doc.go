// Package view implements views, view containers and root-node flattening.
//
// A View is an ordered list of Nodes. Nodes are elements, text, comments,
// container anchors, element containers (<ng-container>), projection slots
// (<ng-content>) and ICU blocks. Container anchors own a Container: an
// ordered list of Views inserted at that position.
//
// # Flattening
//
// Flatten walks a view depth-first, left to right. Every node contributes
// its native node; a node owning a container then contributes the flattened
// views of the container in insertion order; an element container then
// contributes its children; a projection slot contributes its projected
// nodes in place.
//
//	<ng-template [ngIf]="true">text|</ng-template>SUFFIX
//
// flattens to [Comment, Text("text|"), Text("SUFFIX")].
//
// Two strategies implement Flattener. Standard returns no root nodes for an
// empty view; Legacy returns one placeholder comment for it. Select one at
// configuration time with StrategyFor.
package view
