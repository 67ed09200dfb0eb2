package lockfile_test

import (
	"fmt"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

func ExampleParse() {
	text := `{"lockfileVersion":3,"packages":{
		"":{"dependencies":{"express":"4.18.2"}},
		"node_modules/express":{"version":"4.18.2"}
	}}`

	doc, err := lockfile.Parse(text)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(doc.Ecosystem, doc.EcosystemVersion)
	for _, key := range doc.Keys() {
		p := doc.Packages[key]
		fmt.Printf("%q version=%q deps=%v\n", key, p.Version, p.Dependencies)
	}
	// Output:
	// npm 3
	// "" version="" deps=map[express:4.18.2]
	// "node_modules/express" version="4.18.2" deps=map[]
}

func ExampleDetect() {
	fmt.Println(lockfile.Detect("# yarn lockfile v1\n"))
	fmt.Println(lockfile.Detect("__metadata:\n  version: 8\n"))
	fmt.Println(lockfile.Detect("lockfileVersion: '9.0'\n"))
	fmt.Println(lockfile.Detect("hello"))
	// Output:
	// yarn-classic
	// yarn-berry
	// pnpm
	// unknown
}

func ExamplePNPMKeyVersion() {
	fmt.Println(lockfile.PNPMKeyVersion("/lodash/4.17.21"))
	fmt.Println(lockfile.PNPMKeyVersion("@scope/pkg@1.2.3-beta.1"))
	// Output:
	// 4.17.21
	// 1.2.3-beta.1
}

func ExampleParseYarnClassic_unsupported() {
	_, err := lockfile.ParseYarnClassic("# yarn lockfile v2\n")
	fmt.Println(errs.GetCode(err))
	// Output:
	// UNSUPPORTED_VERSION
}
