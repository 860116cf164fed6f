// Package promptharvest collects AI image prompts from public sources and
// upserts them, deduplicated and tagged with style descriptors, into a
// prompt store.
//
// Most callers need only a config and a Harvester:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	h, err := promptharvest.NewHarvester(cfg)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	report, err := h.Run(ctx)
//
// The ingestion, sources, tagging and storage packages can also be used
// directly.
package promptharvest
