package bundle

// LoaderSource is the function expression that runs a bundle. It receives the
// definition tuples, the launch parameters and the host's eval, which is used
// to materialize module code on first use and to look up the global hook
// functions named in the parameters.
const LoaderSource = `function (defs, params, evl) {
	"use strict";

	var hasOwn = Object.prototype.hasOwnProperty;
	var definitions = {}, renames = {}, products = {}, proxies = {}, resolving = {};
	var order = [], stack = [];

	function has(obj, key) {
		return hasOwn.call(obj, key);
	}

	function bundleError(kind, message) {
		var err = new Error(message);
		err.name = kind;
		return err;
	}

	function warn(message) {
		if (typeof console !== "undefined" && console.warn) {
			console.warn(message);
		}
	}

	var hooks = {};

	function hook(name) {
		if (!name) {
			return null;
		}
		if (!has(hooks, name)) {
			var fn;
			try {
				fn = evl(name);
			} catch (e) {
				fn = undefined;
			}
			if (typeof fn !== "function") {
				warn("Hook \"" + name + "\" is not a global function; ignoring it.");
				fn = null;
			}
			hooks[name] = fn;
		}
		return hooks[name];
	}

	function fail(err) {
		var handler = hook(params.errorHandler);
		if (handler) {
			handler(err);
			return;
		}
		throw err;
	}

	defs.forEach(function (tuple) {
		var def = {
			name: tuple[0],
			deps: tuple.length > 2 ? tuple[1] : [],
			meta: tuple.length > 3 ? tuple[2] : null,
			code: tuple[tuple.length - 1],
			fn: null
		};
		definitions[def.name] = def;
		order.push(def.name);
		if (def.meta && def.meta.altName) {
			renames[def.meta.altName] = def.name;
		}
	});

	function rename(name) {
		return has(renames, name) ? renames[name] : name;
	}

	function proxied(name) {
		var def = definitions[name];
		return !!(def && def.meta && def.meta.exports && !def.meta.arbitraryType);
	}

	function exportNames(name) {
		var owners = {}, names = [], visited = {};

		function add(exportName, source) {
			if (has(owners, exportName)) {
				if (owners[exportName] !== source) {
					warn("Module \"" + name + "\" receives export \"" + exportName + "\" from both \"" +
						owners[exportName] + "\" and \"" + source + "\"; using the first one.");
				}
				return;
			}
			owners[exportName] = source;
			names.push(exportName);
		}

		function visit(moduleName, firstHop) {
			moduleName = rename(moduleName);
			if (has(visited, moduleName)) {
				return;
			}
			visited[moduleName] = true;
			var def = definitions[moduleName];
			if (!def || !def.meta) {
				return;
			}
			(def.meta.exports || []).forEach(function (exportName) {
				if (firstHop || exportName !== "default") {
					add(exportName, moduleName);
				}
			});
			(def.meta.exportRefs || []).forEach(function (ref) {
				visit(ref, false);
			});
		}

		visit(name, true);
		return names;
	}

	function getProxy(name) {
		if (has(proxies, name)) {
			return proxies[name];
		}
		var proxy = {};
		exportNames(name).forEach(function (exportName) {
			Object.defineProperty(proxy, exportName, {
				enumerable: true,
				get: function () {
					return getProduct(name)[exportName];
				}
			});
		});
		proxies[name] = proxy;
		return proxy;
	}

	function getDependency(name) {
		name = rename(name);
		if (proxied(name)) {
			return getProxy(name);
		}
		return getProduct(name);
	}

	function getProduct(name) {
		name = rename(name);
		if (has(products, name)) {
			return products[name];
		}
		var def = definitions[name];
		if (!def) {
			throw bundleError("MissingDefinitionError", "Module \"" + name +
				"\" is neither defined in the bundle nor loaded as an external module.");
		}
		if (has(resolving, name)) {
			throw bundleError("CircularDependencyError", "Cannot resolve circular dependency: " +
				stack.concat([name]).join(" -> "));
		}

		resolving[name] = true;
		stack.push(name);
		try {
			var exports = {};
			var args = [exports];
			def.deps.forEach(function (dep) {
				args.push(getDependency(dep));
			});
			if (!def.fn) {
				def.fn = evl("(" + def.code + ")\n//# sourceURL=" + name);
			}
			if (typeof def.fn !== "function") {
				throw bundleError("TypeError", "Code of module \"" + name + "\" is not a function.");
			}
			var returned = def.fn.apply(null, args);
			var product = def.meta && def.meta.arbitraryType ? returned : exports;
			products[name] = product;
			return product;
		} finally {
			stack.pop();
			delete resolving[name];
		}
	}

	function externals() {
		var names = [], seen = {};
		order.forEach(function (name) {
			definitions[name].deps.forEach(function (dep) {
				dep = rename(dep);
				if (!has(definitions, dep) && !has(seen, dep)) {
					seen[dep] = true;
					names.push(dep);
				}
			});
		});
		return names;
	}

	function preload(names, done) {
		if (names.length === 0) {
			done();
			return;
		}
		var amd = hook(params.amdRequire);
		var cjs = hook(params.commonjsRequire);
		if (cjs && (params.preferCommonjs || !amd)) {
			for (var i = 0; i < names.length; i++) {
				try {
					products[names[i]] = cjs(names[i]);
				} catch (e) {
					fail(bundleError("ExternalLoadError", "Failed to load external module \"" + names[i] + "\": " + e));
					return;
				}
			}
			done();
			return;
		}
		if (amd) {
			amd(names, function () {
				for (var i = 0; i < names.length; i++) {
					products[names[i]] = arguments[i];
				}
				done();
			}, function (e) {
				fail(bundleError("ExternalLoadError", "Failed to load external modules " + names.join(", ") + ": " + e));
			});
			return;
		}
		fail(bundleError("ExternalLoadError", "No external module loader is configured for: " + names.join(", ")));
	}

	function launch() {
		var error = null, result;
		try {
			var entry = getProduct(params.entryPoint.module);
			order.forEach(function (name) {
				if (!has(products, name)) {
					getProduct(name);
				}
			});
			var fn = entry === null || entry === undefined ? undefined : entry[params.entryPoint.function];
			if (typeof fn !== "function") {
				throw bundleError("EntryPointError", "Module \"" + params.entryPoint.module +
					"\" does not export function \"" + params.entryPoint.function + "\".");
			}
			result = fn.apply(null, params.entryPointArgs || []);
		} catch (e) {
			error = e;
		}

		var after = hook(params.afterEntryPointExecuted);
		if (after) {
			after(error, result);
		}
		if (error && (hook(params.errorHandler) || !after)) {
			fail(error);
		}
	}

	try {
		preload(externals(), launch);
	} catch (e) {
		fail(e);
	}
}`
