// Package loader provides the feature loading system of the HTTP application.
//
// Each feature implements the Feature interface and registers its routes when
// loaded. The Manager keeps the registry: Register adds features and LoadAll
// loads the enabled ones in registration order.
//
//	mgr := loader.NewManager()
//	mgr.Register(wiki.NewFeature(svc, log))
//	err := mgr.LoadAll(app)
package loader
