// Package rules builds guards from a declarative YAML file.
//
//	routes:
//	  - name: signup
//	    path: /signup
//	    methods: [POST]
//	    fields:
//	      - name: username
//	        rules:
//	          - kind: regex
//	            pattern: "[a-z][a-z0-9]{0,29}$"
//
// Supported kinds: regex (pattern), exists, email (domain), length (min,
// max), select (options, fold_case), date and time (layout, ISO when empty),
// ipaddress (families), tag (tag), csrf, and custom (name) for validators
// registered with WithCustom.
//
// Load builds every validator up front: an unknown kind, a bad pattern or a
// duplicate route name fails the load instead of a request.
package rules
