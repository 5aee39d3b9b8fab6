// Package pagelang flips the visible text of an HTML page between a
// canonical source language and a target language.
//
// A page is parsed once, its visible text is collected into ordered
// segments, eligible segments are sent in batches to a translation
// provider, and the translations are written back only after every batch
// succeeded. The current language is persisted in a state store so a
// reloaded page comes back in the language the reader chose.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/MrUltraEnder/pagelang"
//	    "github.com/MrUltraEnder/pagelang/cache"
//	    "github.com/MrUltraEnder/pagelang/processor"
//	    "github.com/MrUltraEnder/pagelang/provider"
//	    "github.com/MrUltraEnder/pagelang/state"
//	)
//
//	func main() {
//	    p := provider.NewGoogleProvider(provider.GoogleConfig{
//	        APIKey: os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
//	    })
//
//	    client := pagelang.NewClient(p,
//	        pagelang.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    doc, err := processor.NewHTMLProcessor().Parse("<p>Hello World</p>")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    page := pagelang.NewPage(doc, client, state.NewMemoryStore())
//	    if err := page.Toggle(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	    out, _ := page.Render()
//	    fmt.Println(out) // ...<p>Hola Mundo</p>...
//	}
package pagelang
