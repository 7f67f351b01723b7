package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/jsonwire"
	"github.com/rawbytedev/jsonwire/pkg/anyjson"
)

var sample = []byte(`{
	"id": 48151623,
	"name": "profiling sample with a reasonably long name",
	"active": true,
	"score": -12.75,
	"tags": ["alpha", "beta", "gamma", "delta"],
	"nested": {"depth": 1, "inner": {"depth": 2, "leaf": null}}
}`)

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1
	codec := anyjson.Codec()
	for i := 0; i < 10000; i++ {
		v, err := jsonwire.ReadFromArray(sample, codec, jsonwire.DefaultReaderConfig)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := jsonwire.WriteToArray(v, codec, jsonwire.DefaultWriterConfig); err != nil {
			log.Fatal(err)
		}
	}
	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
