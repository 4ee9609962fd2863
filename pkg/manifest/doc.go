// Package manifest loads component and module definitions from YAML or
// JSON, for the CLI and the inspection server.
//
//	components:
//	  - name: TodoList
//	    selector: todo-list
//	    template: |
//	      <li *ngFor="let item of items">{{item}}</li>
//	    state:
//	      items: [milk, eggs]
//	modules:
//	  - name: AppModule
//	    imports: [common]
//	    declarations: [TodoList]
//	root: AppModule
//
// The module name "common" refers to the built-in directives. A manifest
// without modules gets a root module declaring every component.
package manifest
