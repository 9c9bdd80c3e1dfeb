package main

// <global-variables>
//   <subset purpose="used by cobra">
var argJSONOutput bool
var argVerbose bool
var argForce bool
var argAlgos []string
var argThreads int

//   </subset>

//   <subset purpose="passed to command bodies via the package-level Output">
var w Output
var exitCode int

//   </subset>
// </global-variables>
