package post

import _ "embed"

// ChartCSS styles the chart classes. It is inlined in every standalone svg.
//
//go:embed assets/chart.css
var ChartCSS string

//go:embed assets/page.css
var pageCSS string

// HoverJS wires the highlight index to mouse events in the browser.
//
//go:embed assets/hover.js
var HoverJS string

//go:embed assets/index.html.tmpl
var indexHTML string
