// Package render turns simulator state into drawable primitives: pixel
// colors for the potential map and arrow geometry for forces. It has no
// windowing dependency so both front ends share it.
package render
