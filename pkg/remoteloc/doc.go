// Package remoteloc implements urlstore.Location over a websocket to a
// small script running in the browser.
//
// The browser sends its location once on connect and again on every
// hashchange event:
//
//	{"type":"location","protocol":"https:","host":"cat.net","pathname":"/hey","search":"?a=1","hash":"#b=2"}
//	{"type":"hashchange","hash":"#b=3"}
//
// The server answers with history updates the script applies using
// history.replaceState, which does not fire hashchange:
//
//	{"type":"replaceFragment","hash":"#b=3&flying=no"}
//	{"type":"clearQuery"}
package remoteloc
