package constant

// AsciiArtLogo is the application's banner shown in the root command help.
const AsciiArtLogo = `
 _                              _
| |_  __ _  _ __   ___   __ _ | | __ _   _
| __|/ _' || '_ \ / __| / _' || |/ /| | | |
| |_| (_| || | | |\__ \| (_| ||   < | |_| |
 \__|\__,_||_| |_||___/ \__,_||_|\_\ \__,_|
`
