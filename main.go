package main

import (
	"oss.terrastruct.com/mmdgen/lib/xmain"
	"oss.terrastruct.com/mmdgen/mmdcli"
)

func main() {
	xmain.Main(mmdcli.Run)
}
