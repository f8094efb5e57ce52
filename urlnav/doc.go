// Package urlnav walks trees addressed by URLs.
//
// Two kinds of tree are supported: filesystem directories (file: URLs) and
// the inside of JAR archives (jar:file:/path/to/lib.jar!/entry/ URLs). A
// visit is depth first, children in name order. For every directory it
// reports StartDir, then its accepted contents, then EndDir; for every file
// it reports File. A Filter decides which directories are entered and which
// files are reported. The directory a visit starts from is always reported.
//
// Navigator picks the Provider from the URL scheme:
//
//	nav, err := urlnav.NewNavigator(urlnav.WithLogger(logger))
//	u, _ := urlnav.ParseLocation("lib/portal.jar!/org/")
//	var c urlnav.Collector
//	err = nav.Visit(ctx, u, &c, urlnav.AcceptAll)
package urlnav
