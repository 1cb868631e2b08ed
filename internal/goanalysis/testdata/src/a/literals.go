package a

const usage = `usage:
    wslint [flags]   
  	path
`

var quote = '"' // want "trailing whitespace"   
